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

import "github.com/starwing/musubi/internal/arena"

// cluster is a column-window's worth of line-labels that fit inside the
// width budget on a single line.
type cluster struct {
	lineNo      int
	marginLabel *lineLabel
	lineLabels  []lineLabel
	arrowLen    int
	minCol      int
	maxMsgWidth int
	startCol    int
	endCol      int
}

// buildClusters partitions sorted line-labels into width-bounded clusters.
// widthCache[i] is the cumulative display width
// of the first i characters of the line (length lineCharLen+1). Cluster
// structs are allocated from ca, the Report's per-render cluster arena, so
// their storage is reused across renders instead of heap-allocated fresh
// each time.
func buildClusters(lineNo int, labels []lineLabel, widthCache []int, cfg *Config, ca *arena.Arena[cluster]) []*cluster {
	if len(labels) == 0 {
		return nil
	}

	extraArrow := 2
	if cfg.Compact {
		extraArrow = 1
	}

	newCluster := func(minCol int) *cluster {
		return ca.New(cluster{lineNo: lineNo, minCol: minCol}).In(ca)
	}

	var clusters []*cluster
	cur := newCluster(labels[0].col)

	for _, ll := range labels {
		width := messageWidth(ll.info.label)
		// The arrow extends past the label's end column (not merely its
		// anchor), so every message in the cluster starts at the same
		// column past the widest span.
		labelEnd := ll.col
		if !ll.info.multi && ll.info.endCol > labelEnd {
			labelEnd = ll.info.endCol
		}
		candidateEnd := max(cur.arrowLen, labelEnd+extraArrow)
		candidateMin := min(cur.minCol, ll.col)
		candidateMsg := max(cur.maxMsgWidth, width)
		span := (candidateEnd - candidateMin) + 1 + candidateMsg

		nonEmpty := len(cur.lineLabels) > 0 || cur.marginLabel != nil
		if nonEmpty && span > lineBudget(widthCache, cfg) {
			clusters = append(clusters, cur)
			cur = newCluster(ll.col)
		}

		cur.minCol = min(cur.minCol, ll.col)
		cur.arrowLen = max(cur.arrowLen, labelEnd+extraArrow)
		cur.maxMsgWidth = max(cur.maxMsgWidth, width)

		llCopy := ll
		if cur.marginLabel == nil && ll.info.multi {
			cur.marginLabel = &llCopy
		} else {
			cur.lineLabels = append(cur.lineLabels, llCopy)
		}
	}
	clusters = append(clusters, cur)
	return clusters
}

// lineBudget returns the available width budget for packing a cluster; 0
// (LimitWidth disabled) acts as "unbounded".
func lineBudget(widthCache []int, cfg *Config) int {
	if cfg.LimitWidth <= 0 {
		return 1 << 30
	}
	return cfg.LimitWidth
}

func messageWidth(l *Label) int {
	if l.messageWidth > 0 {
		return l.messageWidth
	}
	if l.message == "" {
		return 0
	}
	return stringWidth(l.message, 0)
}
