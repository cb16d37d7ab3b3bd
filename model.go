package agentbay

import "time"

// Context is a named persistent volume, global to the tenant, addressable
// by ID and attachable to a session at a mount path.
type Context struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// McpTool is a named capability hosted by a backend server; Server is the
// routing key used for VPC tool dispatch.
type McpTool struct {
	Name        string
	Description string
	InputSchema []byte
	Server      string
	Tool        string
}

// Extension is a browser extension package stored as a zip file in a
// dedicated context.
type Extension struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// FileChangeEvent is one entry of a directory watch's reported delta.
type FileChangeEvent struct {
	EventType string // "create", "modify", "delete"
	Path      string
	PathType  string // "file", "directory"
}

// ContextStatusItem is one entry of a context-sync status report. Status
// is terminal when it is "Success" or "Failed"; anything else means the
// task is still running.
type ContextStatusItem struct {
	ContextID    string
	Path         string
	Status       string
	ErrorMessage string
	StartTime    int64
	FinishTime   int64
	TaskType     string
}

func (i ContextStatusItem) isTerminal() bool {
	return i.Status == "Success" || i.Status == "Failed"
}

func (i ContextStatusItem) isSyncTask() bool {
	return i.TaskType == "upload" || i.TaskType == "download"
}

// FileEntry is one entry of ContextService.ListFiles.
type FileEntry struct {
	FileID      string
	FileName    string
	FilePath    string
	FileType    string
	GmtCreate   string
	GmtModified string
	Size        int64
	Status      string
}
