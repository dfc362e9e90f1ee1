package cli

import (
	"fmt"
	"strings"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdPush(fsys oatsfs.FS, path string, args []string) error {
	flags, rest, err := parsePushFlags("push", args)
	if err != nil {
		return err
	}

	if len(rest) == 0 {
		return fmt.Errorf("push: %w", oatslog.ErrInvalidArgument)
	}

	text := strings.Join(rest, " ")

	return withStore(fsys, path, func(s *oatslog.Store) error {
		ts := nowMillis()
		if flags.noTimestamp {
			ts = 0
		}

		return s.PushText(flags.itemID(), ts, flags.sessionID, flags.hasSession, flags.mobile, []byte(text))
	})
}
