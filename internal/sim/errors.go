package sim

import "errors"

// ErrInvalidWeightShape is returned when a weight vector's length does not
// match the number of features the variant's policy reads.
var ErrInvalidWeightShape = errors.New("sim: invalid weight shape")
