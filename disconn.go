// Copyright 2018 The ZikiChomgo Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package arco

import "fmt"

// DisconnectedError reports that a DeviceIO node was run with its
// input or output side unconnected.
type DisconnectedError struct {
	IsInput bool
}

func (d *DisconnectedError) Error() string {
	dir := "input"
	if !d.IsInput {
		dir = "output"
	}
	return fmt.Sprintf("%s not connected", dir)
}

func dce(in bool) *DisconnectedError {
	return &DisconnectedError{IsInput: in}
}
