//go:build !unix

package transition

type unsupported struct{}

func System() Syscalls {
	return unsupported{}
}

func (unsupported) Setgroups([]int) error {
	return ErrUnsupported
}

func (unsupported) Setgid(int) error {
	return ErrUnsupported
}

func (unsupported) Setuid(int) error {
	return ErrUnsupported
}

func (unsupported) Credentials() (Credentials, error) {
	return Credentials{}, ErrUnsupported
}
