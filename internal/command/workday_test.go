package command

import (
	"testing"
	"time"

	"github.com/HKK13/hello-bott/internal/domain"
	"github.com/HKK13/hello-bott/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45*time.Minute+59*time.Second))
	assert.Equal(t, "1h00m", FormatDuration(time.Hour))
	assert.Equal(t, "10h05m", FormatDuration(10*time.Hour+5*time.Minute))
}

func TestDescribeWorkday(t *testing.T) {
	now := testutil.FixedNow.Add(5 * time.Hour)

	active := testutil.NewTestWorkday("U1", "")
	assert.Equal(t, "<@U1> is working on something since 09:00 UTC, 5h00m worked today.",
		DescribeWorkday("<@U1>", active, now))

	onBreak := testutil.NewTestWorkday("U1", "coding", testutil.WithBreakAt(testutil.FixedNow.Add(3*time.Hour)))
	assert.Equal(t, "<@U1> is on a break since 12:00 UTC, 3h00m worked today.",
		DescribeWorkday("<@U1>", onBreak, now))

	ended := testutil.NewTestWorkday("U1", "coding", testutil.WithEndedAt(testutil.FixedNow.Add(4*time.Hour)))
	assert.Equal(t, "<@U1>'s last workday ran 09:00 to 13:00 UTC, 4h00m worked.",
		DescribeWorkday("<@U1>", ended, now))

	empty := &domain.Workday{Owner: "U1", Begin: testutil.FixedNow}
	assert.Equal(t, "<@U1> has no workday on record.", DescribeWorkday("<@U1>", empty, now))
	assert.Equal(t, "<@U1> has no workday on record.", DescribeWorkday("<@U1>", nil, now))
}
