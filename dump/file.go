package dump

import (
	"io"

	"pixbench/imageio"
	"pixbench/pixel"
)

// Ext is the file extension of buffer dumps.
const Ext = ".pxbf"

// Save writes buf into dir/name.pxbf and returns the path.
func Save(buf *pixel.Buffer, dir, name string, overwrite bool) (string, error) {
	return imageio.WriteFile(dir, name+Ext, overwrite, func(w io.Writer) error {
		_, err := Write(w, buf)
		return err
	})
}

// Load reads a dump written by Save.
func Load(path string) (*pixel.Buffer, error) {
	var buf *pixel.Buffer
	err := imageio.ReadFile(path, func(r io.Reader) error {
		var err error
		buf, err = Read(r)
		return err
	})
	return buf, err
}
