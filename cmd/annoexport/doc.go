// Command annoexport exports annotation context bundles to standard
// interchange formats: COCO, YOLO, Pascal VOC, CoNLL-2003, CoNLL-U, mask
// PNGs, ELAN EAF and Praat TextGrid.
package main
