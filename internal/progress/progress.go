// Package progress computes job progress from the persisted artifact list.
// The computation is stateless so a restarted process reports identical
// numbers for the same artifacts.
package progress

import "newsforge/internal/pipeline"

// Checkpoints before the generation phase. Generation occupies 30 through
// 100, allocated evenly across enabled pipelines.
const (
	CheckpointAccepted   = 5
	CheckpointResolving  = 15
	CheckpointValidated  = 25
	CheckpointGenerating = 30
	CheckpointDone       = 100
)

// completionMarkers maps a pipeline to the artifact types that mark it
// complete. A pipeline counts as done when any of its markers is present.
var completionMarkers = map[string][]string{
	pipeline.NameVideo:       {"video_branded", "video_raw"},
	pipeline.NameAudio:       {"audiogram", "audio"},
	pipeline.NameSocial:      {"social"},
	pipeline.NameTranslation: {"translation"},
	pipeline.NameSEO:         {"seo"},
	pipeline.NameQA:          {"qa"},
}

// TypeSet folds artifact types into a membership set.
func TypeSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Compute returns the generation-phase progress for the enabled pipelines
// given the artifact types present so far.
func Compute(enabled map[string]bool, types map[string]bool) int {
	total := len(enabled)
	completed := 0
	for name := range enabled {
		for _, marker := range completionMarkers[name] {
			if types[marker] {
				completed++
				break
			}
		}
	}
	if total < 1 {
		total = 1
	}
	return CheckpointGenerating + (60*completed)/total
}
