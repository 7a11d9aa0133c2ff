package workload

import "github.com/pkg/errors"

// InvalidConfigError is the error returned from Generate when the provided Config cannot
// describe a workload, for example a zero or negative budget
var InvalidConfigError error = errors.New("workload config is invalid")
