// Package unit converts between HWPUNIT (the native length unit of HWP
// documents), display pixels, and millimeters.
//
// One logical inch is 7200 HWPUNIT, 96 display pixels, and 25.4 mm.
// Native↔pixel conversions round to the nearest integer; every other
// component in the module must use these functions rather than deriving
// its own scale constants.
package unit
