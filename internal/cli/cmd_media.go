package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

type mediaKind int

const (
	mediaImage mediaKind = iota
	mediaFile
	mediaVideo
)

func cmdMedia(fsys oatsfs.FS, path string, args []string, kind mediaKind) error {
	name := map[mediaKind]string{mediaImage: "img", mediaFile: "file", mediaVideo: "vid"}[kind]

	flags, rest, err := parsePushFlags(name, args)
	if err != nil {
		return err
	}

	if len(rest) == 0 && kind != mediaVideo {
		return fmt.Errorf("%s: %w", name, oatslog.ErrInvalidArgument)
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		for _, p := range rest {
			data, err := os.ReadFile(p) //nolint:gosec // path comes from the operator's own CLI invocation
			if err != nil {
				return fmt.Errorf("read %q: %w", p, err)
			}

			ts := nowMillis()
			if flags.noTimestamp {
				ts = 0
			}

			id := flags.itemID()
			filename := filepath.Base(p)

			switch kind {
			case mediaImage:
				err = s.PushImage(id, ts, flags.sessionID, flags.hasSession, flags.mobile, filename, data)
			case mediaFile:
				err = s.PushFile(id, ts, flags.sessionID, flags.hasSession, flags.mobile, filename, data)
			case mediaVideo:
				err = s.PushVideo(id, ts, flags.sessionID, flags.hasSession, flags.mobile, filename, data)
			}

			if err != nil {
				return fmt.Errorf("push %q: %w", p, err)
			}
		}

		return nil
	})
}
