package cli

import (
	"io"

	flag "github.com/spf13/pflag"
)

// pushFlags are the options shared by push, img, file and vid: how to
// stamp a freshly pushed item's identity and metadata.
type pushFlags struct {
	id          uint64
	hasID       bool
	sessionID   int64
	hasSession  bool
	mobile      bool
	noTimestamp bool
}

func parsePushFlags(name string, args []string) (pushFlags, []string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	id := fs.Uint64("id", 0, "explicit item id")
	session := fs.Int64("session", 0, "session id to attach this item to")
	mobile := fs.Bool("mobile", false, "mark as pushed from a mobile client")
	noTimestamp := fs.Bool("no-timestamp", false, "omit the timestamp field")

	if err := fs.Parse(args); err != nil {
		return pushFlags{}, nil, err
	}

	return pushFlags{
		id:          *id,
		hasID:       fs.Changed("id"),
		sessionID:   *session,
		hasSession:  fs.Changed("session"),
		mobile:      *mobile,
		noTimestamp: *noTimestamp,
	}, fs.Args(), nil
}

func (f pushFlags) itemID() uint64 {
	if f.hasID {
		return f.id
	}

	return nowID()
}
