// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// DonationCutoff returns the eligibility cutoff for a new donation at the
// given instant: three calendar months earlier, with day-of-month overflow
// normalized forward (three months before May 31 is March 2 or 3, matching
// ordinary month/year rollover rather than a fixed 90-day window).
//
// An identity may donate only if its most recent prior donation is dated
// strictly before the cutoff; a donation dated exactly at the cutoff is
// still inside the window.
func DonationCutoff(now time.Time) time.Time {
	return now.AddDate(0, -3, 0)
}

// DonationEligible reports whether an identity whose most recent prior
// donation happened at lastDonation may donate again at instant now.
func DonationEligible(lastDonation, now time.Time) bool {
	return lastDonation.Before(DonationCutoff(now))
}
