package accounts

// User is an account record.
type User struct {
	Name  string
	UID   int
	GID   int
	Home  string
	Shell string
}

// Group is a group record. Members is only populated by sources that expose it.
type Group struct {
	Name    string
	GID     int
	Members []string
}

type PasswdEntry struct {
	Name   string
	Passwd string
	UID    int
	GID    int
	Gecos  string
	Home   string
	Shell  string
}

type GroupEntry struct {
	Name    string
	Passwd  string
	GID     int
	Members []string
}

func (e *PasswdEntry) User() *User {
	return &User{Name: e.Name, UID: e.UID, GID: e.GID, Home: e.Home, Shell: e.Shell}
}

func (e *GroupEntry) Group() *Group {
	members := append([]string(nil), e.Members...)
	return &Group{Name: e.Name, GID: e.GID, Members: members}
}

func (e *GroupEntry) HasMember(name string) bool {
	for _, m := range e.Members {
		if m == name {
			return true
		}
	}
	return false
}
