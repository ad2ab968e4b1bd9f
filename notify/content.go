// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// InviteContent describes an event invitation, e.g.
// "Alice invited you to Office Party on Dec 24, 2026 (2 months from now), budget $1,250.00".
func InviteContent(organizer, eventName string, date time.Time, budget float64, now time.Time) string {
	return fmt.Sprintf("%s invited you to %s on %s (%s), budget $%s",
		organizer,
		eventName,
		date.Format("Jan 2, 2006"),
		humanize.RelTime(date, now, "ago", "from now"),
		humanize.FormatFloat("#,###.##", budget),
	)
}

func FriendRequestContent(sender string) string {
	return fmt.Sprintf("%s sent you a friend request", sender)
}

func FriendResponseContent(responder string, accepted bool) string {
	if accepted {
		return fmt.Sprintf("%s accepted your friend request", responder)
	}
	return fmt.Sprintf("%s declined your friend request", responder)
}

func DrawCompletedContent(eventName string) string {
	return fmt.Sprintf("The draw for %s is done. Find out who you are buying for!", eventName)
}
