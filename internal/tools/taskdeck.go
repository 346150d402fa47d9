package tools

import (
	"context"
	"encoding/json"

	"github.com/deckhand/deckhand/internal/trackerapi"
)

type idArgs struct {
	ID string `json:"id"`
}

type taskListArgs struct {
	ProjectID  string `json:"project_id,omitempty"`
	Status     string `json:"status,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty"`
	LabelID    string `json:"label_id,omitempty"`
	Cursor     string `json:"cursor,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type listArgs struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type workspaceListArgs struct {
	WorkspaceID string `json:"workspace_id"`
	Cursor      string `json:"cursor,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type searchArgs struct {
	WorkspaceID string `json:"workspace_id,omitempty"`
	Query       string `json:"query"`
	Cursor      string `json:"cursor,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type updateTaskArgs struct {
	ID string `json:"id"`
	trackerapi.UpdateTaskRequest
}

type updateProjectArgs struct {
	ID string `json:"id"`
	trackerapi.UpdateProjectRequest
}

type moveTaskArgs struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
}

type memberTaskArgs struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
}

type memberWorkspaceArgs struct {
	WorkspaceID string `json:"workspace_id"`
	MemberID    string `json:"member_id"`
}

type labelTaskArgs struct {
	ID      string `json:"id"`
	LabelID string `json:"label_id"`
}

type commentArgs struct {
	TaskID string `json:"task_id"`
	Body   string `json:"body"`
}

type updateCommentArgs struct {
	ID   string `json:"id"`
	Body string `json:"body"`
}

type inviteArgs struct {
	WorkspaceID string `json:"workspace_id"`
	Email       string `json:"email"`
	Role        string `json:"role,omitempty"`
}

type createLabelArgs struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
}

type createWebhookArgs struct {
	trackerapi.CreateWebhookRequest
}

// RegisterTaskdeckTools registers the Taskdeck tool surface against the
// given client.
func RegisterTaskdeckTools(registry *Registry, client *trackerapi.Client) error {
	register := func(name, description string, handler Handler) error {
		return registry.Register(name, description, handler)
	}

	registrations := []struct {
		name        string
		description string
		handler     Handler
	}{
		{"list_tasks", "List tasks, optionally filtered by project, status, assignee, or label", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[taskListArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Tasks(ctx, trackerapi.TaskFilter{
				ProjectID:   decoded.ProjectID,
				Status:      decoded.Status,
				AssigneeID:  decoded.AssigneeID,
				LabelID:     decoded.LabelID,
				ListOptions: trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit},
			})
		}},
		{"get_task", "Fetch a single task by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Task(ctx, decoded.ID)
		}},
		{"create_task", "Create a task in a project", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[trackerapi.CreateTaskRequest](args)
			if err != nil {
				return nil, err
			}
			return client.CreateTask(ctx, decoded)
		}},
		{"update_task", "Apply a partial update to a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[updateTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return client.UpdateTask(ctx, decoded.ID, decoded.UpdateTaskRequest)
		}},
		{"delete_task", "Delete a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteTask(ctx, decoded.ID)
		}},
		{"complete_task", "Mark a task as completed", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.CompleteTask(ctx, decoded.ID)
		}},
		{"reopen_task", "Reopen a completed task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.ReopenTask(ctx, decoded.ID)
		}},
		{"move_task", "Move a task to another project", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[moveTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return client.MoveTask(ctx, decoded.ID, decoded.ProjectID)
		}},
		{"assign_task", "Assign a workspace member to a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[memberTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return client.AssignTask(ctx, decoded.ID, decoded.MemberID)
		}},
		{"unassign_task", "Remove a workspace member from a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[memberTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.UnassignTask(ctx, decoded.ID, decoded.MemberID)
		}},
		{"list_subtasks", "List the subtasks of a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Subtasks(ctx, decoded.ID, trackerapi.ListOptions{})
		}},
		{"list_projects", "List the projects in a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[workspaceListArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Projects(ctx, decoded.WorkspaceID, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"get_project", "Fetch a single project by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Project(ctx, decoded.ID)
		}},
		{"create_project", "Create a project in a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[trackerapi.CreateProjectRequest](args)
			if err != nil {
				return nil, err
			}
			return client.CreateProject(ctx, decoded)
		}},
		{"update_project", "Apply a partial update to a project", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[updateProjectArgs](args)
			if err != nil {
				return nil, err
			}
			return client.UpdateProject(ctx, decoded.ID, decoded.UpdateProjectRequest)
		}},
		{"archive_project", "Archive a project", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.ArchiveProject(ctx, decoded.ID)
		}},
		{"delete_project", "Delete a project", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteProject(ctx, decoded.ID)
		}},
		{"list_comments", "List the comments on a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.TaskComments(ctx, decoded.ID, trackerapi.ListOptions{})
		}},
		{"add_comment", "Add a comment to a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[commentArgs](args)
			if err != nil {
				return nil, err
			}
			return client.AddComment(ctx, decoded.TaskID, decoded.Body)
		}},
		{"update_comment", "Edit a comment", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[updateCommentArgs](args)
			if err != nil {
				return nil, err
			}
			return client.UpdateComment(ctx, decoded.ID, decoded.Body)
		}},
		{"delete_comment", "Delete a comment", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteComment(ctx, decoded.ID)
		}},
		{"list_workspaces", "List the workspaces visible to the caller", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[listArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Workspaces(ctx, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"list_members", "List the members of a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[workspaceListArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Members(ctx, decoded.WorkspaceID, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"invite_member", "Invite a member to a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[inviteArgs](args)
			if err != nil {
				return nil, err
			}
			return client.InviteMember(ctx, decoded.WorkspaceID, decoded.Email, decoded.Role)
		}},
		{"whoami", "Fetch the authenticated member", func(ctx context.Context, args json.RawMessage) (any, error) {
			return client.Me(ctx)
		}},
		{"list_labels", "List the labels in a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[workspaceListArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Labels(ctx, decoded.WorkspaceID, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"create_label", "Create a label in a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[createLabelArgs](args)
			if err != nil {
				return nil, err
			}
			return client.CreateLabel(ctx, decoded.WorkspaceID, decoded.Name, decoded.Color)
		}},
		{"add_task_label", "Attach a label to a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[labelTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return client.AddTaskLabel(ctx, decoded.ID, decoded.LabelID)
		}},
		{"search_tasks", "Full-text search tasks", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[searchArgs](args)
			if err != nil {
				return nil, err
			}
			return client.SearchTasks(ctx, decoded.WorkspaceID, decoded.Query, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"search_projects", "Full-text search projects", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[searchArgs](args)
			if err != nil {
				return nil, err
			}
			return client.SearchProjects(ctx, decoded.WorkspaceID, decoded.Query, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"list_webhooks", "List the webhooks registered for a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[workspaceListArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Webhooks(ctx, decoded.WorkspaceID, trackerapi.ListOptions{Cursor: decoded.Cursor, Limit: decoded.Limit})
		}},
		{"create_webhook", "Register a webhook delivery target", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[createWebhookArgs](args)
			if err != nil {
				return nil, err
			}
			return client.CreateWebhook(ctx, decoded.CreateWebhookRequest)
		}},
		{"delete_webhook", "Remove a webhook registration", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteWebhook(ctx, decoded.ID)
		}},
		{"remove_task_label", "Detach a label from a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[labelTaskArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.RemoveTaskLabel(ctx, decoded.ID, decoded.LabelID)
		}},
		{"get_label", "Fetch a single label by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Label(ctx, decoded.ID)
		}},
		{"delete_label", "Delete a label", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteLabel(ctx, decoded.ID)
		}},
		{"get_workspace", "Fetch a single workspace by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Workspace(ctx, decoded.ID)
		}},
		{"get_member", "Fetch a single member by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Member(ctx, decoded.ID)
		}},
		{"remove_member", "Remove a member from a workspace", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[memberWorkspaceArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.RemoveMember(ctx, decoded.WorkspaceID, decoded.MemberID)
		}},
		{"get_comment", "Fetch a single comment by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Comment(ctx, decoded.ID)
		}},
		{"list_attachments", "List the attachments on a task", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.TaskAttachments(ctx, decoded.ID, trackerapi.ListOptions{})
		}},
		{"get_attachment", "Fetch attachment metadata by id", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return client.Attachment(ctx, decoded.ID)
		}},
		{"delete_attachment", "Delete an attachment", func(ctx context.Context, args json.RawMessage) (any, error) {
			decoded, err := decodeArgs[idArgs](args)
			if err != nil {
				return nil, err
			}
			return nil, client.DeleteAttachment(ctx, decoded.ID)
		}},
	}

	for _, reg := range registrations {
		if err := register(reg.name, reg.description, reg.handler); err != nil {
			return err
		}
	}
	return nil
}
