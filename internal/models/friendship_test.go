package models

import (
	"testing"
	"time"
)

func TestCanonicalPair(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantUser1 string
		wantUser2 string
		wantErr   bool
	}{
		{
			name:      "Already ordered",
			a:         "aaa",
			b:         "bbb",
			wantUser1: "aaa",
			wantUser2: "bbb",
		},
		{
			name:      "Reversed input",
			a:         "bbb",
			b:         "aaa",
			wantUser1: "aaa",
			wantUser2: "bbb",
		},
		{
			name:    "Same user",
			a:       "aaa",
			b:       "aaa",
			wantErr: true,
		},
		{
			name:    "Empty id",
			a:       "",
			b:       "bbb",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := CanonicalPair(tt.a, tt.b)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanonicalPair() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if pair.User1ID != tt.wantUser1 || pair.User2ID != tt.wantUser2 {
				t.Errorf("CanonicalPair() = (%q, %q), want (%q, %q)",
					pair.User1ID, pair.User2ID, tt.wantUser1, tt.wantUser2)
			}
		})
	}
}

func TestCanonicalPair_Symmetric(t *testing.T) {
	// Both argument orders must resolve to the same pair.
	p1, err := CanonicalPair("user-x", "user-y")
	if err != nil {
		t.Fatalf("CanonicalPair() error = %v", err)
	}
	p2, err := CanonicalPair("user-y", "user-x")
	if err != nil {
		t.Fatalf("CanonicalPair() error = %v", err)
	}
	if p1 != p2 {
		t.Errorf("pairs differ by argument order: %+v vs %+v", p1, p2)
	}
}

func TestPair_Other(t *testing.T) {
	pair := Pair{User1ID: "aaa", User2ID: "bbb"}

	if got := pair.Other("aaa"); got != "bbb" {
		t.Errorf("Other(aaa) = %q, want bbb", got)
	}
	if got := pair.Other("bbb"); got != "aaa" {
		t.Errorf("Other(bbb) = %q, want aaa", got)
	}
	if !pair.Contains("aaa") || !pair.Contains("bbb") {
		t.Error("Contains() = false for pair member")
	}
	if pair.Contains("ccc") {
		t.Error("Contains(ccc) = true, want false")
	}
}

func TestFriendship_BeforeSave(t *testing.T) {
	tests := []struct {
		name    string
		f       Friendship
		wantErr bool
	}{
		{
			name:    "Canonical order",
			f:       Friendship{User1ID: "aaa", User2ID: "bbb", InitiatedBy: "aaa", Status: FriendshipStatusPending},
			wantErr: false,
		},
		{
			name:    "Reversed order rejected",
			f:       Friendship{User1ID: "bbb", User2ID: "aaa", InitiatedBy: "aaa", Status: FriendshipStatusPending},
			wantErr: true,
		},
		{
			name:    "Self pair rejected",
			f:       Friendship{User1ID: "aaa", User2ID: "aaa", InitiatedBy: "aaa", Status: FriendshipStatusPending},
			wantErr: true,
		},
		{
			name:    "Invalid status",
			f:       Friendship{User1ID: "aaa", User2ID: "bbb", InitiatedBy: "aaa", Status: "rejected"},
			wantErr: true,
		},
		{
			name:    "Active status",
			f:       Friendship{User1ID: "aaa", User2ID: "bbb", InitiatedBy: "bbb", Status: FriendshipStatusActive},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.BeforeSave(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("BeforeSave() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFriendship_PulseSlots(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	f := Friendship{User1ID: "aaa", User2ID: "bbb", Status: FriendshipStatusPending}

	if f.BothPulsed() {
		t.Fatal("BothPulsed() = true before any pulse")
	}

	f.SetPulse("bbb", now)
	if f.PulseSentByUser2 == nil || !f.PulseSentByUser2.Equal(now) {
		t.Error("SetPulse(bbb) did not stamp user2 slot")
	}
	if f.PulseSentByUser1 != nil {
		t.Error("SetPulse(bbb) stamped user1 slot")
	}
	if got := f.PulseSentBy("bbb"); got == nil || !got.Equal(now) {
		t.Error("PulseSentBy(bbb) did not return the stamp")
	}

	f.SetPulse("aaa", now.Add(time.Hour))
	if !f.BothPulsed() {
		t.Error("BothPulsed() = false after both pulses")
	}

	if got := f.OtherUserID("aaa"); got != "bbb" {
		t.Errorf("OtherUserID(aaa) = %q, want bbb", got)
	}
}

func TestFriendship_WindowLapsed(t *testing.T) {
	expiry := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	f := Friendship{PulseExpiresAt: expiry}

	if f.WindowLapsed(expiry.Add(-time.Minute)) {
		t.Error("WindowLapsed() = true inside the window")
	}
	if f.WindowLapsed(expiry) {
		t.Error("WindowLapsed() = true at the exact boundary; boundary is inclusive")
	}
	if !f.WindowLapsed(expiry.Add(time.Minute)) {
		t.Error("WindowLapsed() = false past the window")
	}
}
