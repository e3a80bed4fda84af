// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.chartmix/config.toml as nested tables and are read and
// written as dot-notation keys ("pipeline.limit" is [pipeline] limit).
package file
