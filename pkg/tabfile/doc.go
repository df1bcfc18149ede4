// Package tabfile streams tab-separated records to and from a single text
// file, one line at a time, without loading the file into memory.
//
// Invariants:
//   - A Session holds at most one open handle, matching its current mode.
//   - Degraded states (missing file, unopened session, malformed line)
//     surface as false results, never as errors.
//   - Only Open can fail, and only when given an unsupported mode.
//
// Usage:
//
//	s := tabfile.New()
//	if err := s.Open("crew.tab", tabfile.ModeRead); err != nil {
//		return err
//	}
//	defer s.Close()
//	for {
//		first, second, ok := s.ReadLine()
//		if !ok {
//			break
//		}
//		_ = first
//		_ = second
//	}
package tabfile
