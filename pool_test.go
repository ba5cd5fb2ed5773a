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

package musubi

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJob(t *testing.T, name, msg string) (RenderJob, *strings.Builder) {
	t.Helper()
	var r Report
	id := r.Source(NewMemorySource(name, "hello world"))
	require.NoError(t, r.Label(id, 0, 5))
	require.NoError(t, r.Message(msg, 0))

	var buf strings.Builder
	return RenderJob{Report: &r, Writer: &buf, HeaderPos: 0, HeaderSrcID: id}, &buf
}

func TestPoolRendersEveryJob(t *testing.T) {
	assert := assert.New(t)

	pool := NewPool(2)
	var bufs []*strings.Builder
	var jobs []RenderJob
	for i := 0; i < 5; i++ {
		job, buf := newTestJob(t, "f.txt", "msg")
		jobs = append(jobs, job)
		bufs = append(bufs, buf)
	}

	errs, err := pool.Render(context.Background(), jobs)
	assert.NoError(err)
	assert.Len(errs, 5)
	for _, buf := range bufs {
		assert.Contains(buf.String(), "msg")
	}
}

func TestPoolPropagatesFirstError(t *testing.T) {
	wantErr := assert.AnError
	assert := assert.New(t)

	pool := NewPool(1)
	var r Report
	id := r.Source(NewMemorySource("f.txt", "hello"))
	require.NoError(t, r.Label(id, 0, 1))

	jobs := []RenderJob{
		{Report: &r, Writer: failingWriter{err: wantErr}, HeaderPos: 0, HeaderSrcID: id},
	}

	errs, err := pool.Render(context.Background(), jobs)
	assert.ErrorIs(err, wantErr)
	assert.ErrorIs(errs[0], wantErr)
}

func TestNewPoolClampsNonPositiveParallelism(t *testing.T) {
	assert := assert.New(t)
	pool := NewPool(0)
	assert.NotNil(pool)

	job, buf := newTestJob(t, "f.txt", "hi")
	_, err := pool.Render(context.Background(), []RenderJob{job})
	assert.NoError(err)
	assert.Contains(buf.String(), "hi")
}
