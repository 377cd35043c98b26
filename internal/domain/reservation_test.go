// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationValidate(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("valid", func(t *testing.T) {
		r := NewPending("user", "resource", start, end, "note")
		assert.NoError(t, r.Validate())
	})

	t.Run("empty user id", func(t *testing.T) {
		r := NewPending("", "resource", start, end, "note")
		assert.True(t, IsInvalidUserID(r.Validate()))
	})

	t.Run("start equals end", func(t *testing.T) {
		r := NewPending("user", "resource", start, start, "note")
		assert.True(t, IsInvalidTimespan(r.Validate()))
	})

	t.Run("start after end", func(t *testing.T) {
		r := NewPending("user", "resource", end, start, "note")
		assert.True(t, IsInvalidTimespan(r.Validate()))
	})
}

func TestReservationNormalizeStatus(t *testing.T) {
	r := Reservation{Status: StatusUnknown}
	assert.Equal(t, StatusPending, r.NormalizeStatus())

	r.Status = StatusConfirmed
	assert.Equal(t, StatusConfirmed, r.NormalizeStatus())
}

func TestQueryTimespanOneSidedIsValid(t *testing.T) {
	q := Query{End: time.Now()}
	rng, err := q.Timespan()
	assert.NoError(t, err)
	assert.True(t, rng.Start.IsZero())

	q2 := Query{}
	_, err = q2.Timespan()
	assert.True(t, IsInvalidTimespan(err))
}

func TestBuildPagerEdgeRules(t *testing.T) {
	ids := []int64{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	pager := BuildPager(ids, 0, 10, false)
	assert.Nil(t, pager.Prev)
	assert.Equal(t, int64(11), *pager.Next)

	pager = BuildPager(ids, 1, 10, false)
	assert.Equal(t, int64(2), *pager.Prev)
	assert.Equal(t, int64(11), *pager.Next)

	shortPage := []int64{92, 93, 94}
	pager = BuildPager(shortPage, 95, 10, false)
	assert.Nil(t, pager.Next)

	pager = BuildPager(shortPage, 95, 10, true)
	assert.Nil(t, pager.Prev)
}
