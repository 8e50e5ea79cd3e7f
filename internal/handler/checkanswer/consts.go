package checkanswer

import "time"

const (
	defaultUserName    = "me"
	defaultPartnerName = "your partner"

	// longest answer accepted, in runes
	maxAnswerLength = 2000

	sessionIdleTimeout   = time.Minute * 30
	sessionSweepInterval = time.Minute
)
