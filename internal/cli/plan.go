package cli

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hnrobert/suexrs/internal/accounts"
	"github.com/hnrobert/suexrs/internal/auth"
	"github.com/hnrobert/suexrs/internal/target"
)

// Plan is what --dry-run prints: the identity a real run would adopt.
type Plan struct {
	Caller     int         `yaml:"caller_uid"`
	Target     string      `yaml:"target"`
	IdentityDB string      `yaml:"identity_db"`
	User       string      `yaml:"user,omitempty"`
	UID        int         `yaml:"uid"`
	Group      string      `yaml:"group,omitempty"`
	GID        int         `yaml:"gid"`
	Groups     []PlanGroup `yaml:"groups"`
	Home       string      `yaml:"home,omitempty"`
	Command    []string    `yaml:"command"`
}

type PlanGroup struct {
	GID  int    `yaml:"gid"`
	Name string `yaml:"name,omitempty"`
}

// NewPlan describes id. Group names are looked up for display only; a GID
// without a name is shown bare.
func NewPlan(db accounts.Database, grant *auth.Privileged, spec target.Spec, id target.Identity, command []string) Plan {
	p := Plan{
		Caller:     grant.CallerUID(),
		Target:     spec.String(),
		IdentityDB: db.Name(),
		User:       id.User,
		UID:        id.UID,
		Group:      id.Group,
		GID:        id.GID,
		Home:       id.Home,
		Command:    command,
		Groups:     make([]PlanGroup, 0, len(id.Groups)),
	}
	if p.Group == "" {
		p.Group = groupName(db, id.GID)
	}
	for _, gid := range id.Groups {
		p.Groups = append(p.Groups, PlanGroup{GID: gid, Name: groupName(db, gid)})
	}
	return p
}

func groupName(db accounts.Database, gid int) string {
	g, err := db.LookupGroupID(gid)
	if err != nil {
		return ""
	}
	return g.Name
}

func WritePlan(w io.Writer, p Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}
