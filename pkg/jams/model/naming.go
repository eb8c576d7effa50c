package model

import "strings"

// TarballSuffix is the extension every artefact carries in the backing store.
const TarballSuffix = ".tar.gz"

// ArtefactName builds the on-disk/remote artefact name for a sanitized name
// under the given framework: "{framework}-{user_name}.tar.gz".
func ArtefactName(fw Framework, sanitized string) string {
	return string(fw) + "-" + sanitized + TarballSuffix
}

// SplitArtefact parses an artefact name of the form
// "{framework}-{user_name}.tar.gz" into its framework and sanitized name.
// The framework is the segment before the first dash; everything between
// that dash and the ".tar.gz" suffix is the sanitized name. ok is false if
// the name has no ".tar.gz" suffix, no dash, or an unrecognized framework
// prefix (the caller decides whether that's fatal or a skip-with-warning).
func SplitArtefact(artefact string) (fw Framework, sanitized string, ok bool) {
	stem, ok := stripTarballSuffix(artefact)
	if !ok {
		return "", "", false
	}

	dash := strings.IndexByte(stem, '-')
	if dash < 0 {
		return "", "", false
	}

	fw, ok = ParseFramework(stem[:dash])
	if !ok {
		return "", "", false
	}

	sanitized = stem[dash+1:]
	if sanitized == "" {
		return "", "", false
	}
	return fw, sanitized, true
}

// Sanitize strips the framework prefix and ".tar.gz" suffix from an artefact
// name, returning the registry key. It is the round-trip counterpart to
// ArtefactName.
func Sanitize(artefact string) (string, error) {
	_, sanitized, ok := SplitArtefact(artefact)
	if !ok {
		return "", ErrUnknownFramework(artefact)
	}
	return sanitized, nil
}

func stripTarballSuffix(name string) (string, bool) {
	if !strings.HasSuffix(name, TarballSuffix) {
		return "", false
	}
	return strings.TrimSuffix(name, TarballSuffix), true
}
