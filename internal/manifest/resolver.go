package manifest

// Resolution failures are typed so the command layer can render the right
// guidance (list remote clouds vs list manifest entries) while the policy
// itself stays in one place.

// NoCloudError means neither an explicit target nor a manifest entry was
// available. The command lists the user's remotely known clouds.
type NoCloudError struct{}

func (e *NoCloudError) Error() string {
	return "no cloud specified and no Cloudfile present"
}

// AmbiguousCloudError means the manifest declares several clouds and no
// explicit target picked one.
type AmbiguousCloudError struct {
	Clouds []string
}

func (e *AmbiguousCloudError) Error() string {
	return "multiple clouds declared in Cloudfile"
}

// Resolve determines the single cloud a command targets.
//
// An explicit target always wins, unvalidated: the remote call rejects an
// inaccessible cloud. Otherwise a single manifest entry resolves silently,
// and zero or many entries produce a typed error — the resolver never
// guesses.
func Resolve(clouds []string, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	switch len(clouds) {
	case 1:
		return clouds[0], nil
	case 0:
		return "", &NoCloudError{}
	default:
		return "", &AmbiguousCloudError{Clouds: clouds}
	}
}
