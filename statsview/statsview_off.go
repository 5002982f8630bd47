//go:build !statsview

package statsview

import "io"

// Address is the listen address the stats server would use.
const Address = "localhost:18650"

// Launch does nothing in builds without the statsview constraint.
func Launch(output io.Writer) {
}

// Available returns false when the stats server is not compiled in.
func Available() bool {
	return false
}
