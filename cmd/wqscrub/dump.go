package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/decker502/wqscroll/pkg/timeline"
)

// dump 在 steps+1 个均匀进度点上输出活跃阶段和计数器文本
func dump(w io.Writer, s *session, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1, got %d", steps)
	}

	headers := []string{"progress", "active"}
	for _, r := range s.counters() {
		headers = append(headers, r.Label)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)

	for i := 0; i <= steps; i++ {
		p := float64(i) / float64(steps)
		s.seek(p)

		row := []string{fmt.Sprintf("%.3f", p), activeNames(s)}
		for _, r := range s.counters() {
			row = append(row, r.Text)
		}
		t.Row(row...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func activeNames(s *session) string {
	phases, states := s.phases()
	var names []string
	for i, ph := range phases {
		if states[i] == timeline.StateActive {
			names = append(names, ph.Name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
