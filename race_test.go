// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package strarena_test

// raceEnabled is true when the race detector is active.
// High-contention tests run fewer iterations in race mode: the
// detector's per-access instrumentation makes the full iteration
// count take far longer without exercising any new code path.
const raceEnabled = true
