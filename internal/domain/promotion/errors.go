package promotion

import "errors"

var ErrPromotionNotFound = errors.New("promotion not found")
