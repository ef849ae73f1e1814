package oscore

// RequirePrivileged fails with ErrNotPrivileged unless the process runs as root.
func RequirePrivileged() error {
	if !IsPrivileged() {
		return ErrNotPrivileged
	}

	return nil
}
