package main

import (
	"fmt"
	"io"

	"github.com/savetheginger/dtree/dataset/inputsample"
	"github.com/savetheginger/dtree/feature"
	"github.com/savetheginger/dtree/tree"
)

type featureValueRequester struct {
	w              io.Writer
	undefinedValue string
}

/*
predict asks for the values of a sample on w, reading them from r, and
returns the class the tree predicts for it. Only the features the tree
splits on along the sample's path are asked for.
*/
func predict(root *tree.Node, features []feature.Feature, r io.Reader, w io.Writer, undefinedValue string) (int, error) {
	sample := inputsample.New(r, features, &featureValueRequester{w, undefinedValue}, undefinedValue)
	return root.Predict(sample)
}

func (fvr *featureValueRequester) RequestValueFor(f feature.Feature) error {
	switch f := f.(type) {
	case *feature.IntegerFeature:
		fmt.Fprintf(fvr.w, "Please provide the sample's %s:\n(valid values are integers or %s if undefined)\n", f.Name(), fvr.undefinedValue)
	case *feature.ContinuousFeature:
		fmt.Fprintf(fvr.w, "Please provide the sample's %s:\n(valid values are real numbers or %s if undefined)\n", f.Name(), fvr.undefinedValue)
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}

func (fvr *featureValueRequester) RejectValueFor(f feature.Feature, value interface{}) error {
	switch f := f.(type) {
	case *feature.IntegerFeature:
		fmt.Fprintf(fvr.w, "%v is not a valid value for the sample's %s. Please provide an integer or %s if undefined.\n", value, f.Name(), fvr.undefinedValue)
	case *feature.ContinuousFeature:
		fmt.Fprintf(fvr.w, "%v is not a valid value for the sample's %s. Please provide a real number or %s if undefined.\n", value, f.Name(), fvr.undefinedValue)
	default:
		return fmt.Errorf("unknown feature type %T", f)
	}
	return nil
}
