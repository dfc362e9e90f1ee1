package cli

import (
	"fmt"
	"strconv"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdDbgSetID(fsys oatsfs.FS, path string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("dbgsetid: expected <item_id> <new_id>: %w", oatslog.ErrInvalidArgument)
	}

	itemID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item_id %q: %w", args[0], err)
	}

	newID, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid new_id %q: %w", args[1], err)
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		return oatslog.DebugSetID(s, itemID, newID)
	})
}

func cmdDbgSetTime(fsys oatsfs.FS, path string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("dbgsettime: expected <item_id> <ms>: %w", oatslog.ErrInvalidArgument)
	}

	itemID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item_id %q: %w", args[0], err)
	}

	ms, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ms %q: %w", args[1], err)
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		return oatslog.DebugSetTimestamp(s, itemID, ms)
	})
}
