// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcsv

import "os"

// A Files reads measurements from a sequence of input files.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	//
	// This is generally the desired behavior when the file list
	// comes from command-line flags.
	AllowStdin bool

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []string

	reader  Reader
	file    *os.File
	isStdin bool
	err     error
}

// init does first-use initialization of f.
func (f *Files) init() {
	// Set f.inputs to a non-nil slice to indicate initialization
	// has happened.
	f.inputs = []string{}
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, "-")
	}
	f.inputs = append(f.inputs, f.Paths...)
}

// Scan advances the reader to the next record in the sequence of
// files and reports whether one was read. The caller should use the
// Result method to get the record. If Scan reaches the end of the
// file sequence, or if an I/O error occurs, it returns false. In this
// case, the caller should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			// Open the next file.
			if len(f.inputs) == 0 {
				// We're out of inputs.
				return false
			}
			path := f.inputs[0]
			f.inputs = f.inputs[1:]

			if f.AllowStdin && path == "-" {
				f.isStdin, f.file = true, os.Stdin
			} else {
				file, err := os.Open(path)
				if err != nil {
					f.err = err
					return false
				}
				f.isStdin, f.file = false, file
			}

			f.reader.Reset(f.file, path)
		}

		// Try to get the next record.
		if f.reader.Scan() {
			return true
		}
		if err := f.reader.Err(); err != nil {
			f.err = err
			break
		}
		// Just an EOF. Close this file and open the next.
		if !f.isStdin {
			f.file.Close()
		}
		f.file = nil
	}
	// We're out of files.
	return false
}

// Result returns the record that was just read by Scan.
// See Reader.Result.
func (f *Files) Result() Record {
	return f.reader.Result()
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}
