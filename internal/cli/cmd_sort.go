package cli

import (
	"github.com/kalscium/oats/internal/home"
	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdSort(fsys oatsfs.FS, path string, _ []string) error {
	tmp, err := home.TempPath()
	if err != nil {
		return err
	}

	return oatslog.Sort(fsys, path, tmp)
}
