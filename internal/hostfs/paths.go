package hostfs

// Well-known identity database locations, relative to a Root.
const (
	EtcPasswdRel = "etc/passwd"
	EtcGroupRel  = "etc/group"
)
