// SPDX-License-Identifier: EPL-2.0

package memio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWriteSeeker_PatchHeader(t *testing.T) {
	t.Parallel()

	var w WriteSeeker
	w.Write([]byte("XXXXbody"))
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("HEAD"))
	if _, err := w.Seek(0, io.SeekEnd); err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("!"))

	if got := string(w.Bytes()); got != "HEADbody!" {
		t.Errorf("Bytes() = %q, want %q", got, "HEADbody!")
	}
	if w.Len() != 9 {
		t.Errorf("Len() = %d, want 9", w.Len())
	}
}

func TestWriteSeeker_SeekPastEndGrows(t *testing.T) {
	t.Parallel()

	var w WriteSeeker
	w.Seek(4, io.SeekCurrent)
	w.Write([]byte{1})
	if !bytes.Equal(w.Bytes(), []byte{0, 0, 0, 0, 1}) {
		t.Errorf("Bytes() = %v", w.Bytes())
	}
}

func TestWriteSeeker_InvalidSeek(t *testing.T) {
	t.Parallel()

	var w WriteSeeker
	if _, err := w.Seek(-1, io.SeekStart); !errors.Is(err, ErrNegativePosition) {
		t.Errorf("Seek(-1) error = %v, want ErrNegativePosition", err)
	}
	if _, err := w.Seek(0, 42); err == nil {
		t.Error("Seek with bad whence should fail")
	}
}

func TestReadSeeker(t *testing.T) {
	t.Parallel()

	br := bytes.NewReader([]byte("abc"))
	rs, err := ReadSeeker(br)
	if err != nil {
		t.Fatal(err)
	}
	if rs != io.ReadSeeker(br) {
		t.Error("ReadSeeker should pass through an existing io.ReadSeeker")
	}

	rs, err = ReadSeeker(io.MultiReader(strings.NewReader("ab"), strings.NewReader("cd")))
	if err != nil {
		t.Fatal(err)
	}
	rs.Seek(2, io.SeekStart)
	rest, _ := io.ReadAll(rs)
	if string(rest) != "cd" {
		t.Errorf("after seek read %q, want %q", rest, "cd")
	}
}
