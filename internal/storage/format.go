// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"strconv"
	"strings"
	"time"

	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// FormatList renders transcript metadata as a plain table.
func FormatList(metas []model.TranscriptMeta) string {
	if len(metas) == 0 {
		return "No saved chats."
	}

	var sb strings.Builder
	header := util.PadRight("ID", 10) + " " + util.PadRight("Updated", 17) + " " +
		util.PadRight("Msgs", 5) + " Title"
	sb.WriteString(header + "\n")
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, m := range metas {
		id := m.ID
		if len(id) > 8 {
			id = id[:8]
		}
		sb.WriteString(util.PadRight(id, 10) + " " +
			util.PadRight(m.UpdatedAt.Local().Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(strconv.Itoa(m.MessageCount), 5) + " " +
			util.TruncateWidth(m.Title, 36) + "\n")
	}
	return sb.String()
}

// ExportMarkdown renders a transcript as Markdown.
func ExportMarkdown(t *model.Transcript) string {
	var sb strings.Builder
	sb.WriteString("# " + t.GetTitle() + "\n\n")
	sb.WriteString("Created: " + t.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range t.Messages {
		sb.WriteString("**" + msg.Kind.DisplayName() + "** (" + msg.TimeLabel() + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	if len(t.Logs) > 0 {
		sb.WriteString("---\n\n## System log\n\n")
		for _, entry := range t.Logs {
			sb.WriteString("- " + entry.String() + "\n")
		}
	}
	return sb.String()
}
