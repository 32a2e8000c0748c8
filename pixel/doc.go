// Package pixel implements the color and image types used to describe the state of an addressable LED strip.
//
// This module provides a 24-bit [RGB] color model and an [RGBImage] frame buffer, compatible with Go's native
// [color.Color] and [image.Image] / [draw.Image] interfaces, so any image source can be drawn onto a strip.
package pixel
