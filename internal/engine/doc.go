// Package engine holds the numeric core of the affordability advisor: the
// Monte Carlo repayment simulator, the closed-form affordability estimator,
// the stress tester and the HōMI readiness score.
//
// Everything here is a pure function of its inputs. The only randomness
// enters through a Source handed to Simulate, so callers decide whether a
// run is reproducible.
package engine
