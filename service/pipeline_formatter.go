package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clonesieve/clonesieve/domain"
)

// PipelineFormatter implements the domain.PipelineOutputFormatter interface
type PipelineFormatter struct{}

// NewPipelineFormatter creates a new pipeline output formatter
func NewPipelineFormatter() *PipelineFormatter {
	return &PipelineFormatter{}
}

// FormatRunResponse formats a pipeline run response according to the specified format
func (f *PipelineFormatter) FormatRunResponse(response *domain.PipelineResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatRunAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatRunAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// FormatStatusResponse formats a pipeline status response according to the specified format
func (f *PipelineFormatter) FormatStatusResponse(response *domain.PipelineStatusResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatStatusAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatStatusAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatRunAsText formats the run response as human-readable text
func (f *PipelineFormatter) formatRunAsText(response *domain.PipelineResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "Pipeline Run Results\n")
	fmt.Fprintf(writer, "====================\n\n")

	fmt.Fprintf(writer, "Run ID: %s\n\n", response.RunID)

	fmt.Fprintf(writer, "Stages:\n")
	for _, result := range response.Results {
		line := fmt.Sprintf("  %-10s %-10s", result.Name, result.State.String())
		if result.State == domain.StageSucceeded || result.State == domain.StageFailed {
			line += fmt.Sprintf(" %6dms", result.Duration)
		}
		fmt.Fprintf(writer, "%s\n", line)
		if result.Error != "" {
			fmt.Fprintf(writer, "      %s\n", result.Error)
		}
	}

	s := response.Summary
	fmt.Fprintf(writer, "\nSummary: %d succeeded, %d skipped, %d failed, %d not run (total %d)\n",
		s.Succeeded, s.Skipped, s.Failed, s.NotRun, s.TotalStages)
	fmt.Fprintf(writer, "Duration: %dms\n", response.Duration)

	return nil
}

// formatRunAsCSV formats the run response as CSV
func (f *PipelineFormatter) formatRunAsCSV(response *domain.PipelineResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{"stage", "state", "duration_ms", "error"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range response.Results {
		record := []string{
			result.Name,
			result.State.String(),
			strconv.FormatInt(result.Duration, 10),
			result.Error,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}

// formatStatusAsText formats the status response as human-readable text
func (f *PipelineFormatter) formatStatusAsText(response *domain.PipelineStatusResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "Pipeline Status\n")
	fmt.Fprintf(writer, "===============\n\n")

	fmt.Fprintf(writer, "Base directory: %s\n\n", response.BaseDir)

	for _, stage := range response.Stages {
		outputs := "outputs missing"
		if stage.OutputsPresent {
			outputs = "outputs present"
		}

		action := "would not run"
		if stage.WouldRun {
			action = "would run"
		} else if len(stage.MissingInputs) > 0 {
			action = "blocked"
		}

		fmt.Fprintf(writer, "  %-10s %-16s %s\n", stage.Name, outputs, action)
		for _, missing := range stage.MissingInputs {
			fmt.Fprintf(writer, "      missing: %s\n", missing)
		}
	}

	return nil
}

// formatStatusAsCSV formats the status response as CSV
func (f *PipelineFormatter) formatStatusAsCSV(response *domain.PipelineStatusResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{"stage", "outputs_present", "would_run", "missing_inputs"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, stage := range response.Stages {
		record := []string{
			stage.Name,
			strconv.FormatBool(stage.OutputsPresent),
			strconv.FormatBool(stage.WouldRun),
			strings.Join(stage.MissingInputs, ";"),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
