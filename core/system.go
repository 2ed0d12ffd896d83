package core

// System stores system information. Capabilities are explicit operator
// lists checked by the services instead of ambient caller identity.
type System struct {
	Managers []string
	Pausers  []string
	Version  string
}

// IsManager manager capability, required for asset, tier and config updates
func (s *System) IsManager(userID string) bool {
	if len(s.Managers) == 0 {
		return false
	}

	for _, m := range s.Managers {
		if m == userID {
			return true
		}
	}

	return false
}

// IsPauser pauser capability, required for the global halt
func (s *System) IsPauser(userID string) bool {
	for _, p := range s.Pausers {
		if p == userID {
			return true
		}
	}

	// managers may pause as well
	return s.IsManager(userID)
}
