package alerts

import (
	"fmt"

	"github.com/agentstation/alicedeps/pkg/pom"
)

// ChangeLog summarizes a patch run as "<Preview|Update>: N changes" with
// one detail line per changed property.
func ChangeLog(preview bool, log []pom.ChangeRecord) *Alert {
	mode, level := "Update", LevelSuccess
	if preview {
		mode, level = "Preview", LevelInfo
	}
	alert := New(level, fmt.Sprintf("%s: %d changes", mode, pom.Summary(log)))
	for _, rec := range log {
		alert.WithDetails(rec.Lines()...)
	}
	return alert
}
