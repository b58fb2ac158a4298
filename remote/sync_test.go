package remote

import (
	"testing"

	"github.com/halcyon-player/halcyon/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTagFor(t *testing.T) {
	Convey("TagFor", t, func() {
		Convey("Maps transport states to the remote vocabulary", func() {
			for state, want := range map[player.State]StateTag{
				player.StatePlaying: TagPlaying,
				player.StatePaused:  TagPaused,
				player.StateStopped: TagStopped,
				player.StateLoading: TagBuffering,
			} {
				tag, ok := TagFor(state)
				So(ok, ShouldBeTrue)
				So(tag, ShouldEqual, want)
			}
		})

		Convey("Idle and Error push nothing", func() {
			_, ok := TagFor(player.StateIdle)
			So(ok, ShouldBeFalse)
			_, ok = TagFor(player.StateError)
			So(ok, ShouldBeFalse)
		})
	})
}
