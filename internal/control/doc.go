// Package control provides the feedback controllers used by the demos.
//
// Controllers implement [dynamo.Controller]:
//
//   - [PD]: proportional-derivative with optional angle wrap
//   - [Gravity]: arm gravity compensation, kG*sin(theta)
//   - [Velocity]: motor feed-forward, kFF*goal
//
// # Usage
//
//	pd := control.NewPD(0.5, 0.1, 0.004)
//	pd.FeedForward = control.Gravity{Kg: 0.049}
//	u := pd.Compute(theta, goal, history)
//
// The derivative is taken between the last two history samples rather than
// between calls, so a controller can be shared by any number of steps
// without hidden state.
package control
