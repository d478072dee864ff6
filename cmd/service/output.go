package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/quka-ai/course-console/pkg/i18n"
	"github.com/quka-ai/course-console/pkg/types"
	"github.com/quka-ai/course-console/pkg/utils"
)

const previewLength = 500

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printKV prints aligned "key: value" rows, skipping empty values.
func printKV(w io.Writer, rows ...[2]string) {
	rows = lo.Filter(rows, func(r [2]string, _ int) bool { return r[1] != "" })
	width := lo.Max(lo.Map(rows, func(r [2]string, _ int) int { return len(r[0]) }))
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s  %s\n", width+1, r[0]+":", r[1])
	}
}

func preview(content string, full bool) string {
	if full {
		return content
	}
	return utils.Preview(content, previewLength)
}

func printOutlineTask(w io.Writer, t types.OutlineTask, full bool) {
	printKV(w,
		[2]string{"task_id", t.TaskID},
		[2]string{"status", t.Status.String()},
		[2]string{"message", t.Message},
		[2]string{"course_id", t.CourseID},
		[2]string{"course_material_id", t.CourseMaterialID},
		[2]string{"material_name", t.MaterialName},
		[2]string{"file", t.OriginalFilename},
		[2]string{"processing_time", lo.Ternary(t.ProcessingTime > 0, fmt.Sprintf("%.2fs", t.ProcessingTime), "")},
		[2]string{"error", t.ErrorMessage},
	)
	if t.OutlineContent != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, preview(t.OutlineContent, full))
	}
}

func printMaterialStatus(w io.Writer, t types.MaterialTaskStatus, full bool) {
	printKV(w,
		[2]string{"task_id", t.TaskID},
		[2]string{"status", t.Status.String()},
		[2]string{"step", t.CurrentStep},
		[2]string{"progress", fmt.Sprintf("%.1f%% (%d/%d)", t.ProgressPercentage, t.CompletedSteps, t.TotalSteps)},
		[2]string{"message", t.Message},
		[2]string{"rag_index_status", t.RAGIndexStatus},
		[2]string{"error_step", t.ErrorStep},
		[2]string{"error", t.ErrorMessage},
	)
	for _, step := range t.ProcessingSteps {
		fmt.Fprintf(w, "  - %-20s %-12s %s\n", step.StepName, step.Status, lo.Ternary(step.ErrorMessage != "", step.ErrorMessage, step.Message))
	}
	if t.OutlineContent != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, preview(t.OutlineContent, full))
	}
}

// progressLine is one watch update, e.g. "[t1] processing".
func progressLine(taskID string, v types.StatusGetter) string {
	line := fmt.Sprintf("[%s] %s", taskID, v.GetStatus())
	if pg, ok := v.(types.ProgressGetter); ok {
		line += fmt.Sprintf(" %.1f%%", pg.GetProgress())
	}
	if t, ok := v.(types.MaterialTaskStatus); ok && t.CurrentStep != "" {
		line += " " + t.CurrentStep
	}
	return line
}

func printSources(w io.Writer, sources []types.SourceInfo) {
	if len(sources) == 0 {
		fmt.Fprintln(w, i18n.T(i18n.MESSAGE_CHAT_NO_SOURCES))
		return
	}
	for i, s := range sources {
		name := lo.Ternary(s.CourseMaterialName != "", s.CourseMaterialName, s.CourseMaterialID)
		fmt.Fprintf(w, "%d. %s/%s (%.3f)\n", i+1, s.CourseID, name, s.Score)
		fmt.Fprintf(w, "   %s\n", strings.ReplaceAll(utils.Preview(s.ChunkText, 200), "\n", "\n   "))
	}
}

func printChatResponse(w io.Writer, res *types.ChatResponse) {
	fmt.Fprintln(w, res.Answer)
	fmt.Fprintln(w)
	printSources(w, res.Sources)
	if res.FilterInfo != "" {
		fmt.Fprintln(w, i18n.TWithData(i18n.MESSAGE_CHAT_FILTER_INFO, map[string]interface{}{"Info": res.FilterInfo}))
	}
	fmt.Fprintln(w, i18n.TWithData(i18n.MESSAGE_CHAT_ENGINE_INFO, map[string]interface{}{
		"Engine":  res.ChatEngineType,
		"Seconds": fmt.Sprintf("%.2f", res.ProcessingTime),
	}))
}
