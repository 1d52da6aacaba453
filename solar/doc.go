// Package solar loads a trained solar cell performance model and the
// material option catalog, and drives the select-then-predict form cycle.
//
// A model artifact is a JSON manifest. Its features block lists the category
// vocabulary per input field (etl, htl, perovskite); records are one-hot
// encoded in that field order. Kind "linear" carries the 4×n coefficient
// matrix and intercept inline; kind "onnx" names a graph evaluated through
// ONNX Runtime. Both emit (Voc_V, Jsc_mA_cm2, FF, PCE_pct).
package solar
