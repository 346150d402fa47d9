package output

import (
	"encoding/json"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

// JSONFormatter renders records as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTask renders a task detail as JSON.
func (f *JSONFormatter) FormatTask(detail *TaskDetail) (string, error) {
	if detail == nil {
		return "", nil
	}
	return f.marshal(detail)
}

// FormatTasks renders a task listing as JSON.
func (f *JSONFormatter) FormatTasks(tasks []trackerapi.Task) (string, error) {
	return f.marshal(tasks)
}

// FormatProjects renders a project listing as JSON.
func (f *JSONFormatter) FormatProjects(projects []trackerapi.Project) (string, error) {
	return f.marshal(projects)
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
