// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import "github.com/rs/zerolog"

type options struct {
	name   string
	logger zerolog.Logger
}

// Option configures a Reactor.
type Option func(*options)

// WithName sets the reactor name used in log records.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
