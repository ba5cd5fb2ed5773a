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
	"io"

	"golang.org/x/sync/semaphore"
)

// Pool bounds how many Reports render concurrently, the sanctioned way to
// render many independent diagnostics in parallel: a Report itself is
// never safe to share across goroutines, but distinct Reports may render
// on distinct goroutines.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a Pool allowing up to parallelism renders to run at
// once. A parallelism of 0 or less is treated as 1.
func NewPool(parallelism int) *Pool {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(parallelism))}
}

// RenderJob is one unit of work submitted to a Pool: render report to w.
type RenderJob struct {
	Report      *Report
	Writer      io.Writer
	HeaderPos   int
	HeaderSrcID int
}

// Render runs every job's Report.Render call, bounding concurrency to the
// Pool's configured parallelism. It returns the first error encountered
// (by job index), after all jobs have finished; other jobs still run to
// completion; their errors are collected in errs at their index.
func (p *Pool) Render(ctx context.Context, jobs []RenderJob) (errs []error, err error) {
	errs = make([]error, len(jobs))
	done := make(chan int, len(jobs))

	for i, job := range jobs {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			errs[i] = err
			done <- i
			continue
		}
		go func(i int, job RenderJob) {
			defer p.sem.Release(1)
			defer func() { done <- i }()
			errs[i] = job.Report.Render(job.Writer, job.HeaderPos, job.HeaderSrcID)
		}(i, job)
	}

	for range jobs {
		<-done
	}

	for _, e := range errs {
		if e != nil {
			return errs, e
		}
	}
	return errs, nil
}
