// Package predict evaluates the pre-trained property regression models that
// supply collision cross sections and HILIC retention times for theoretical
// reference entries.
//
// A model parameter file carries the categorical vocabularies the encoders
// were fitted on (lipid classes, fatty-acid modifiers, MS adducts), the
// per-feature scale factors of the training-time scaler, and the linear
// regression coefficients. Descriptors are one-hot encoded against those
// vocabularies, scaled, and dotted with the coefficients; inference is a pure
// function of the inputs and the loaded parameters.
//
// A lipid class or adduct the encoder has no slot for yields
// ErrUnsupportedDescriptor rather than a silently mis-encoded prediction.
// Training the models is an offline build-time concern; this package only
// evaluates.
package predict
