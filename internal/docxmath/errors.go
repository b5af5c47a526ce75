// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docxmath

import (
	"errors"
	"fmt"
)

// MalformedInputError is returned when a math tree nests deeper than the
// translator's limit. It is the only error translation produces.
type MalformedInputError struct {
	Tag   string
	Depth int
	Limit int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed math input: <%s> at depth %d exceeds limit %d", e.Tag, e.Depth, e.Limit)
}

// IsMalformedInput reports whether the error is a MalformedInputError.
func IsMalformedInput(err error) bool {
	var target *MalformedInputError
	return errors.As(err, &target)
}
