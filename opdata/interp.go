package opdata

// Interpolation names the interpolation algorithm requested for a LUT.
// Not every value is implemented for every LUT rank; ConcreteLut1D and
// ConcreteLut3D resolve the request down to what is actually supported.
type Interpolation int

const (
	InterpDefault Interpolation = iota
	InterpNearest
	InterpLinear
	InterpCubic
	InterpTetrahedral
	InterpBest
)

// ConcreteLut1D resolves an interpolation request to the one a Lut1D
// actually implements. A 1D LUT only implements linear; per spec §9 this
// includes INTERP_NEAREST, preserved as a compatibility quirk rather than
// silently promoted to a distinct behavior: callers asking for nearest
// get linear, exactly as the upstream API has always done.
func ConcreteLut1D(i Interpolation) Interpolation {
	return InterpLinear
}

// ConcreteLut3D resolves an interpolation request for a Lut3D, which
// supports linear and tetrahedral; anything else (default, best, nearest,
// cubic) resolves to linear.
func ConcreteLut3D(i Interpolation) Interpolation {
	if i == InterpTetrahedral {
		return InterpTetrahedral
	}
	return InterpLinear
}
