// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package anim renders animation frames from layer compositions and caches
// them by content.
//
// Every frame position is described by a [Signature]: the ordered layers
// that make up the frame and their offsets. A [Store] keeps one rendered
// [Frame] per distinct signature and maps positions to frames with strong
// reference counts, so positions with the same signature share one buffer
// and [Store.Identical] can tell a player that no redraw is needed.
//
// A [Worker] renders positions in the background, nearest to the playhead
// first, and reports completions through [Worker.Idle], which the host event
// loop polls. Animations come in three variants, [Legacy], [Animatic] and
// [Cel], all behind the [Animation] interface. Cel and animatic recipes
// persist as XML via [LoadRecipe] and their Serialize methods.
package anim
