package model

// Role is what a connection may do in a game.
type Role string

const (
	RoleWhite     Role = "White"
	RoleBlack     Role = "Black"
	RoleSpectator Role = "Spectator"
)

// Color returns the side a role plays, false for spectators.
func (r Role) Color() (Color, bool) {
	switch r {
	case RoleWhite:
		return White, true
	case RoleBlack:
		return Black, true
	}
	return "", false
}

// Seats binds the first two distinct addresses to White and Black.
type Seats struct {
	White string `json:"white"`
	Black string `json:"black"`
}

// Claim returns addr's role, binding a free seat if addr has none yet.
func (s *Seats) Claim(addr string) Role {
	if r := s.RoleOf(addr); r != RoleSpectator {
		return r
	}
	switch {
	case s.White == "":
		s.White = addr
		return RoleWhite
	case s.Black == "":
		s.Black = addr
		return RoleBlack
	}
	return RoleSpectator
}

func (s *Seats) RoleOf(addr string) Role {
	switch {
	case addr == "":
		return RoleSpectator
	case addr == s.White:
		return RoleWhite
	case addr == s.Black:
		return RoleBlack
	}
	return RoleSpectator
}
