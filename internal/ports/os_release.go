package ports

// OSReleasePort discovers the distribution codename of the running host.
type OSReleasePort interface {
	Codename(path string) (string, error)
}
