// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

// ErrNoBuffer is returned by Play before anything was loaded.
var ErrNoBuffer = errors.New("no audio loaded")
