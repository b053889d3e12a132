package domain

// Caller is the authenticated identity behind a request. It is always a
// per-request input; nothing in this package holds process-global identity.
type Caller struct {
	ID   string
	Role Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// PolicyConfig captures the deployment-level policy choices. The zero value
// is the strictest variant: assignees have no read access and assignment
// happens only through the dedicated assign operation.
type PolicyConfig struct {
	// AssigneeCanView grants read (never write) access to the user a task
	// is assigned to.
	AssigneeCanView bool

	// AssignOnCreate accepts an assignee inside the creation payload
	// (still admin-gated). When off, creation payloads must not carry an
	// assignee and delegation goes through the assign operation.
	AssignOnCreate bool
}

// CanView decides whether caller may read task: admins see everything,
// creators see their own tasks, and assignees see tasks delegated to them
// when the deployment enables it.
func (p PolicyConfig) CanView(caller Caller, task *Task) bool {
	if task == nil {
		return false
	}
	if caller.IsAdmin() || task.CreatorID == caller.ID {
		return true
	}
	return p.AssigneeCanView && task.AssignedTo(caller.ID)
}

// CanMutate decides whether caller may update or delete task. Assignees
// never gain write access regardless of configuration.
func (p PolicyConfig) CanMutate(caller Caller, task *Task) bool {
	if task == nil {
		return false
	}
	return caller.IsAdmin() || task.CreatorID == caller.ID
}

// CanAssign decides whether caller may set or clear a task's assignee,
// both on the dedicated assignment operation and inside create/update
// payloads.
func (p PolicyConfig) CanAssign(caller Caller) bool {
	return caller.IsAdmin()
}
