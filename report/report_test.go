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

package report_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/danielmercier/langkit/report"
)

func TestLocation(t *testing.T) {
	t.Parallel()

	file := report.NewIndexedFile(report.File{
		Path: "test.calc",
		Text: "ab\ncd貓e\n\tz\n",
	})

	var got []report.Location
	for _, offset := range []int{0, 1, 2, 3, 5, 8, 10, 11, 13} {
		got = append(got, file.Search(offset))
	}
	want := []report.Location{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 1, Line: 1, Column: 2},
		{Offset: 2, Line: 1, Column: 3},
		{Offset: 3, Line: 2, Column: 1},
		{Offset: 5, Line: 2, Column: 3},
		{Offset: 8, Line: 2, Column: 5}, // 貓 is two columns wide.
		{Offset: 10, Line: 3, Column: 1},
		{Offset: 11, Line: 3, Column: 5}, // The tab jumps to the next tabstop.
		{Offset: 13, Line: 4, Column: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected locations (-want +got):\n%s", diff)
	}
}

func TestRenderSimple(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file := report.NewIndexedFile(report.File{
		Path: "test.calc",
		Text: "a=1; b=2+;\n",
	})

	var r report.Report
	r.Error(
		errors.New("input file was not valid UTF-8"),
		report.MentionFile("input.calc"),
	)
	r.Warn(
		errors.New("unexpected token"),
		report.SnippetAt(file.NewSpan(9, 10), "expected expression"),
	)

	assert.Equal(
		"error: input.calc: input file was not valid UTF-8\n"+
			"warning: test.calc:1:10: unexpected token\n",
		r.Render(report.Simple),
	)
	assert.True(r.HasErrors())
}

func TestRenderWindow(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	file := report.NewIndexedFile(report.File{
		Path: "test.calc",
		Text: "a=1; b=2+;\n",
	})

	var r report.Report
	r.Error(
		errors.New("unexpected token"),
		report.SnippetAt(file.NewSpan(9, 10), "expected expression"),
		report.SnippetAt(file.NewSpan(7, 9), "while parsing this sum"),
		report.Note("some note"),
	)

	assert.Equal(
		"error: unexpected token\n"+
			"  --> test.calc:1:10\n"+
			"   | \n"+
			" 1 | a=1; b=2+;\n"+
			"   |          ^ expected expression\n"+
			" 1 | a=1; b=2+;\n"+
			"   |        -- while parsing this sum\n"+
			"   = note: some note",
		r[0].Render(report.Monochrome),
	)
	assert.True(r.HasErrors())
}

func TestRenderSpanless(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var r report.Report
	r.Remark(errors.New("nothing to do"))

	assert.Equal(
		"remark: nothing to do\n"+
			"  --> <unknown>:?:?",
		r[0].Render(report.Monochrome),
	)
	assert.False(r.HasErrors())
}
