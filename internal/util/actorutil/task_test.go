package actorutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundTaskSuccess(t *testing.T) {

	var got int
	NewBackgroundTask(nil, func() (*int, error) {
		v := 42
		return &v, nil
	}).OnSuccess(func(v int) {
		got = v
	}).Run()

	assert.Equal(t, 42, got)
}

func TestBackgroundTaskRecover(t *testing.T) {

	var got string
	NewBackgroundTask(nil, func() (*string, error) {
		return nil, errors.New("boom")
	}).Recover(func(err error) string {
		return "recovered: " + err.Error()
	}).OnSuccess(func(v string) {
		got = v
	}).Run()

	assert.Equal(t, "recovered: boom", got)
}

func TestBackgroundTaskTimeout(t *testing.T) {

	var gotErr error
	succeeded := false
	NewBackgroundTaskNoError(nil, func() *int {
		time.Sleep(500 * time.Millisecond)
		v := 1
		return &v
	}).WithTimeout(50 * time.Millisecond).OnError(func(err error) {
		gotErr = err
	}).OnSuccess(func(int) {
		succeeded = true
	}).Run()

	assert.Error(t, gotErr)
	assert.False(t, succeeded)
}

func TestMapBackgroundTask(t *testing.T) {

	var got string
	task := NewBackgroundTask(nil, func() (*int, error) {
		v := 7
		return &v, nil
	})
	MapBackgroundTask(task, func(v *int) *string {
		s := string(rune('0' + *v))
		return &s
	}).OnSuccess(func(v string) {
		got = v
	}).Run()

	assert.Equal(t, "7", got)
}
