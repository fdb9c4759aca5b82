package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wasm-memory/view"
)

// perRow is the number of elements printed per line for each width, so a
// row always covers 16 bytes.
func perRow(kind view.Kind) int {
	return 16 / kind.Width()
}

// cellWidth is the printed width of one element.
func cellWidth(kind view.Kind) int {
	return max(len(strconv.FormatInt(kind.Min(), 10)), len(strconv.FormatInt(kind.Max(), 10)))
}

// formatRows renders count elements starting at start, one row per 16 bytes.
// Each row is prefixed with the byte address of its first element. Rows stop
// at the end of memory.
func formatRows(acc view.Accessor, start, count int) []string {
	kind := acc.Kind()
	n := min(acc.Len(), start+count)
	step := perRow(kind)
	width := cellWidth(kind)

	var rows []string
	for i := start; i < n; i += step {
		var b strings.Builder
		addr := uint64(acc.ByteOffset()) + uint64(i*kind.Width())
		fmt.Fprintf(&b, "%08x:", addr)
		for j := i; j < min(i+step, n); j++ {
			x, err := acc.GetInt(j)
			if err != nil {
				break
			}
			fmt.Fprintf(&b, " %*d", width, x)
		}
		rows = append(rows, b.String())
	}
	return rows
}

func formatMaxPages(pages uint32, ok bool) string {
	if !ok {
		return "none"
	}
	return strconv.FormatUint(uint64(pages), 10)
}
