// Package nand implements a circular, append-only log over raw NAND flash.
//
// The log records fixed-size pages across a contiguous span of physical
// blocks starting at a configured start block. It is built for embedded
// controllers where the NAND driver, the flash itself, and the power supply
// are all unreliable: bad blocks, program failures, and sudden power loss
// are treated as normal operating conditions rather than exceptional ones.
//
// A Ring moves through the lifecycle StateUninit -> StateIdle ->
// StateMounted -> StateIdle -> StateStop. Mount runs a recovery scan that
// locates the most recently written page anywhere in the ring, repairs a
// possibly torn tail (close_prev_session in the original C source), and
// resumes appending from there. WritePage is the append operation of a
// mounted ring; it stamps each page with a strictly increasing identifier
// and transparently rescues data out of any block that fails to program.
package nand
