// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syntax

import (
	"fmt"
	"strings"

	"github.com/danielmercier/langkit/schema"
)

// Print renders a debug dump of the subtree rooted at n, one node per line:
//
//	Def
//	  name: Identifier "a"
//	  value: Number "1"
//
// Children of fixed kinds are prefixed with their slot's role. Golden tests
// diff this output.
func Print(n Node) string {
	var out strings.Builder
	printNode(&out, n, "", 0)
	return out.String()
}

func printNode(out *strings.Builder, n Node, role string, depth int) {
	for range depth {
		out.WriteString("  ")
	}
	if role != "" {
		out.WriteString(role)
		out.WriteString(": ")
	}

	if n.IsZero() {
		out.WriteString("<nil>\n")
		return
	}

	kind := n.Kind()
	out.WriteString(kind.Name())
	if n.IsToken() {
		fmt.Fprintf(out, " %q", n.Text())
	}
	out.WriteByte('\n')

	for i := range n.NumChildren() {
		var role string
		if kind.Shape() == schema.ShapeFixed {
			role = kind.Slot(i)
		}
		printNode(out, n.Child(i), role, depth+1)
	}
}
