// Package ui holds the terminal primitives shared by hbmon's screens: the
// ANSI color palette, status symbols, and a non-interactive table built on
// the Bubbles table component.
//
// Colors are ANSI codes rather than hex values so the output degrades
// cleanly on 16-color terminals and in CI logs.
package ui
