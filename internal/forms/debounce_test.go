package forms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLatestFires(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, DefaultSearchDebounce, d.Delay())

	var tags []uint64
	for _, prefix := range []string{"H", "Ha", "Hal", "Halo"} {
		tags = append(tags, d.Trigger(prefix))
	}

	var searched []string
	for _, tag := range tags {
		if v, ok := d.Fire(tag); ok {
			searched = append(searched, v)
		}
	}
	assert.Equal(t, []string{"Halo"}, searched)

	_, ok := d.Fire(tags[len(tags)-1])
	assert.False(t, ok, "a trigger fires at most once")
	assert.False(t, d.Pending())
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, d.Delay())

	tag := d.Trigger("Zelda")
	assert.True(t, d.Pending())
	d.Cancel()

	_, ok := d.Fire(tag)
	assert.False(t, ok)
}
