package game

// CheckITWin returns true if every runner has been eliminated.
func CheckITWin(players []*Player) bool {
	runnerCount := 0
	eliminatedCount := 0
	for _, p := range players {
		if p.Role == RoleRunner {
			runnerCount++
			if p.Eliminated {
				eliminatedCount++
			}
		}
	}
	return runnerCount > 0 && runnerCount == eliminatedCount
}

// CheckRunnersWin returns true if the game timer expired with at least one
// runner still alive.
func CheckRunnersWin(players []*Player, timerExpired bool) bool {
	if !timerExpired {
		return false
	}
	for _, p := range players {
		if p.Role == RoleRunner && p.IsAlive() {
			return true
		}
	}
	return false
}
