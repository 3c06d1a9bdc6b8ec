package FEM2D

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// writeAtomic streams output into a temporary file beside filename and
// renames it into place once everything is written and synced
func writeAtomic(filename string, write func(w io.Writer) error) (err error) {
	var (
		tmp *os.File
	)
	if tmp, err = os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".*"); err != nil {
		return
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return
	}
	if err = bw.Flush(); err != nil {
		return
	}
	if err = tmp.Sync(); err != nil {
		return
	}
	if err = tmp.Close(); err != nil {
		return
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return
	}
	return os.Rename(tmp.Name(), filename)
}
