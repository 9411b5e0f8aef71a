// SPDX-License-Identifier: EPL-2.0

package timeline

import "errors"

var (
	// ErrNoSource is returned by operations that need loaded audio.
	ErrNoSource = errors.New("no audio loaded")

	// ErrNoRegion is returned by region edits when nothing is selected.
	ErrNoRegion = errors.New("no region selected")

	// ErrEditPending is returned while another edit is being applied.
	ErrEditPending = errors.New("an edit is already in progress")

	// ErrNothingToUndo is returned by Undo at the oldest entry.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo at the newest entry.
	ErrNothingToRedo = errors.New("nothing to redo")
)
