package msg

const nanosPerSecond = 1_000_000_000

// Time represents a non-negative instant as ROS wire messages encode it:
// two 32-bit fields, seconds then nanoseconds.
type Time struct {
	Sec  uint32
	Nsec uint32
}

// TimeFromNanos builds a Time from a nanosecond count since epoch.
func TimeFromNanos(n int64) Time {
	return Time{Sec: uint32(n / nanosPerSecond), Nsec: uint32(n % nanosPerSecond)}
}

// Nanos normalizes t to a 64-bit nanosecond count for arithmetic.
func (t Time) Nanos() int64 {
	return int64(t.Sec)*nanosPerSecond + int64(t.Nsec)
}

// Seconds renders t as a floating-point second count.
func (t Time) Seconds() float64 {
	return float64(t.Sec) + float64(t.Nsec)/nanosPerSecond
}

// Add returns t shifted forward (or backward, for a negative d) by d.
func (t Time) Add(d Duration) Time {
	return TimeFromNanos(t.Nanos() + d.Nanos())
}

// Sub returns the Duration elapsed from other to t.
func (t Time) Sub(other Time) Duration {
	return DurationFromNanos(t.Nanos() - other.Nanos())
}

// SubDuration returns t shifted backward by d.
func (t Time) SubDuration(d Duration) Time {
	return TimeFromNanos(t.Nanos() - d.Nanos())
}

// Duration represents a signed interval as two 32-bit fields, seconds
// then nanoseconds; both fields must carry the same sign (§3).
type Duration struct {
	Sec  int32
	Nsec int32
}

// DurationFromNanos builds a Duration from a signed nanosecond count.
func DurationFromNanos(n int64) Duration {
	return Duration{Sec: int32(n / nanosPerSecond), Nsec: int32(n % nanosPerSecond)}
}

// DurationFromSeconds builds a whole-second Duration.
func DurationFromSeconds(sec int32) Duration {
	return Duration{Sec: sec}
}

// Nanos normalizes d to a signed 64-bit nanosecond count for arithmetic.
func (d Duration) Nanos() int64 {
	return int64(d.Sec)*nanosPerSecond + int64(d.Nsec)
}

// Seconds renders d as a floating-point second count.
func (d Duration) Seconds() float64 {
	return float64(d.Sec) + float64(d.Nsec)/nanosPerSecond
}

// Add returns the sum of two durations.
func (d Duration) Add(rhs Duration) Duration {
	return DurationFromNanos(d.Nanos() + rhs.Nanos())
}

// Sub returns d minus rhs.
func (d Duration) Sub(rhs Duration) Duration {
	return DurationFromNanos(d.Nanos() - rhs.Nanos())
}

// Neg returns the negation of d.
func (d Duration) Neg() Duration {
	return Duration{Sec: -d.Sec, Nsec: -d.Nsec}
}

// IsMixedSign reports whether Sec and Nsec disagree in sign, which §3
// defines as an invalid duration value.
func (d Duration) IsMixedSign() bool {
	return (d.Sec > 0 && d.Nsec < 0) || (d.Sec < 0 && d.Nsec > 0)
}
